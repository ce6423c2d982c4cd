package output

import "rappelmoi/internal/domain"

// ReasonMessage returns the user-facing text for a capture transition.
func ReasonMessage(reason domain.CaptureReason) string {
	switch reason {
	case domain.CaptureReasonReady:
		return "Prêt"
	case domain.CaptureReasonCuePlaying:
		return "Préparation du micro..."
	case domain.CaptureReasonListening:
		return "Je vous écoute"
	case domain.CaptureReasonSilenceTimeout:
		return "Silence détecté, écoute terminée"
	case domain.CaptureReasonFinalResult:
		return "Transcription terminée"
	case domain.CaptureReasonStopped:
		return "Écoute arrêtée"
	case domain.CaptureReasonTranscriptionFailed:
		return "La transcription a échoué"
	case domain.CaptureReasonCueFailed:
		return "Le son d'activation n'a pas pu être joué"
	case domain.CaptureReasonAudioFailed:
		return "Le micro n'a pas pu démarrer"
	case domain.CaptureReasonPermissionDenied:
		return "Accès au micro refusé"
	default:
		return ""
	}
}

// AlertMessage returns the headline for an alert, falling back to detail
// for kinds it does not know.
func AlertMessage(kind domain.AlertKind, detail string) string {
	switch kind {
	case domain.AlertPermissionDenied:
		return "Autorisez l'accès au micro et à la reconnaissance vocale"
	case domain.AlertResourceMissing:
		return "Fichier audio d'activation introuvable"
	case domain.AlertAudioSession:
		return "Problème de session audio"
	case domain.AlertTranscription:
		return "Erreur de transcription"
	case domain.AlertMutedDevice:
		return "Le volume est coupé, montez le son pour entendre le rappel"
	case domain.AlertPastDueReminder:
		return "Impossible de créer un rappel dans le passé"
	case domain.AlertInvalidReminder:
		return "Rappel invalide"
	case domain.AlertStartup:
		return "Échec du démarrage"
	case domain.AlertClipboard:
		return "Copie dans le presse-papiers impossible"
	default:
		if detail == "" {
			return "Erreur inconnue"
		}
		return detail
	}
}
