package models

import (
	"errors"
	"net/http"
	"strings"
)

// ErrorKind classifies domain errors. Every kind maps to one HTTP status.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindInvalidIdentifier
	KindNotFound
	KindAccessDenied
	KindDuplicateName
	KindValidationFailed
	KindUnauthenticated
	KindRateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidIdentifier:
		return "InvalidIdentifier"
	case KindNotFound:
		return "NotFound"
	case KindAccessDenied:
		return "AccessDenied"
	case KindDuplicateName:
		return "DuplicateName"
	case KindValidationFailed:
		return "ValidationFailed"
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindRateLimited:
		return "RateLimited"
	default:
		return "Unexpected"
	}
}

// HTTPStatus returns the response status for the kind
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindInvalidIdentifier, KindDuplicateName, KindValidationFailed:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAccessDenied:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// DomainError is a typed error raised by services
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e DomainError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationFailed error with a custom message
func NewValidationError(message string) DomainError {
	return DomainError{Kind: KindValidationFailed, Message: message}
}

// KindOf extracts the kind of err, KindUnexpected when err carries none
func KindOf(err error) ErrorKind {
	var de DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	var mismatch *WorkTypeMismatchError
	if errors.As(err, &mismatch) {
		return KindValidationFailed
	}
	return KindUnexpected
}

// Message/status conformance table. Messages are user facing and kept stable.
var (
	ErrInvalidID           = DomainError{KindInvalidIdentifier, "ID invalide"}
	ErrInvalidCollectionID = DomainError{KindInvalidIdentifier, "ID de collection invalide"}
	ErrInvalidWorkID       = DomainError{KindInvalidIdentifier, "ID d'œuvre invalide"}
	ErrInvalidShareID      = DomainError{KindInvalidIdentifier, "ID de partage invalide"}
	ErrInvalidUserID       = DomainError{KindInvalidIdentifier, "ID utilisateur invalide"}

	ErrUserNotFound         = DomainError{KindNotFound, "Utilisateur non trouvé"}
	ErrOwnerNotFound        = DomainError{KindNotFound, "Propriétaire de la collection non trouvé"}
	ErrGuestNotFound        = DomainError{KindNotFound, "Utilisateur invité non trouvé"}
	ErrAuthorNotFound       = DomainError{KindNotFound, "Auteur du partage non trouvé"}
	ErrCollectionNotFound   = DomainError{KindNotFound, "Collection non trouvée"}
	ErrWorkNotFound         = DomainError{KindNotFound, "Œuvre non trouvée"}
	ErrNonexistentWork      = DomainError{KindNotFound, "Une ou plusieurs œuvres n'existent pas"}
	ErrShareNotFound        = DomainError{KindNotFound, "Partage non trouvé"}
	ErrNotificationNotFound = DomainError{KindNotFound, "Notification non trouvée"}

	ErrCollectionAccessDenied   = DomainError{KindAccessDenied, "Accès refusé à cette collection"}
	ErrCollectionOwnerOnly      = DomainError{KindAccessDenied, "Accès refusé : seul le propriétaire peut effectuer cette action"}
	ErrCollectionEditDenied     = DomainError{KindAccessDenied, "Accès refusé : droits de modification requis"}
	ErrShareNotOwner            = DomainError{KindAccessDenied, "Accès refusé : vous n'êtes pas le propriétaire de la collection"}
	ErrShareStatusDenied        = DomainError{KindAccessDenied, "Accès refusé : seul l'invité peut modifier le statut du partage"}
	ErrShareDeleteDenied        = DomainError{KindAccessDenied, "Accès refusé : vous ne pouvez pas supprimer ce partage"}
	ErrNotificationAccessDenied = DomainError{KindAccessDenied, "Accès refusé à cette notification"}
	ErrInsufficientRole         = DomainError{KindAccessDenied, "Accès refusé : droits insuffisants"}

	ErrDuplicateCollectionName = DomainError{KindDuplicateName, "Une collection avec ce nom existe déjà"}
	ErrDuplicateEmail          = DomainError{KindDuplicateName, "Cet email est déjà utilisé"}
	ErrDuplicateUsername       = DomainError{KindDuplicateName, "Ce nom d'utilisateur est déjà utilisé"}

	ErrSelfShare             = DomainError{KindValidationFailed, "Vous ne pouvez pas vous partager une collection à vous-même"}
	ErrInvalidLimit          = DomainError{KindValidationFailed, "La limite doit être un entier entre 1 et 100"}
	ErrInvalidYear           = DomainError{KindValidationFailed, "Année invalide"}
	ErrInvalidWorkType       = DomainError{KindValidationFailed, "Type d'œuvre invalide"}
	ErrInvalidCollectionName = DomainError{KindValidationFailed, "Le nom doit contenir entre 3 et 50 caractères"}
	ErrInvalidRole           = DomainError{KindValidationFailed, "Rôle invalide"}
	ErrInvalidStatus         = DomainError{KindValidationFailed, "Statut invalide"}
	ErrInvalidRights         = DomainError{KindValidationFailed, "Droits invalides"}
	ErrInvalidVisibility     = DomainError{KindValidationFailed, "Visibilité invalide"}
	ErrEmptyUpdate           = DomainError{KindValidationFailed, "Aucune modification fournie"}
	ErrInvalidImage          = DomainError{KindValidationFailed, "Image invalide ou format non supporté"}
	ErrFileTooLarge          = DomainError{KindValidationFailed, "Fichier trop volumineux"}
	ErrImageTooLarge         = DomainError{KindValidationFailed, "Dimensions de l'image trop grandes"}
	ErrNoFile                = DomainError{KindValidationFailed, "Aucun fichier fourni"}

	ErrInvalidCredentials = DomainError{KindUnauthenticated, "Identifiants invalides"}
	ErrAuthRequired       = DomainError{KindUnauthenticated, "Authentification requise"}
	ErrInvalidToken       = DomainError{KindUnauthenticated, "Token invalide ou expiré"}

	ErrTooManyRequests = DomainError{KindRateLimited, "Trop de requêtes, réessayez plus tard"}
)

// WorkTypeMismatchPrefix starts the message of WorkTypeMismatchError
const WorkTypeMismatchPrefix = "Types d'œuvres incompatibles avec la collection: "

// WorkTypeMismatchError lists works whose type differs from the collection type
type WorkTypeMismatchError struct {
	IDs []string
}

func (e *WorkTypeMismatchError) Error() string {
	return WorkTypeMismatchPrefix + strings.Join(e.IDs, ", ")
}
