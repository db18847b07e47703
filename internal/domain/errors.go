package domain

import "errors"

// Kind clasifica un error del almacén de documentos. Se expone en GetStatus()
// y en los resultados de comandos para que la UI reaccione por código sin
// inspeccionar mensajes.
type Kind string

const (
	KindNone                   Kind = ""
	KindNotInitialized         Kind = "NOT_INITIALIZED"
	KindCorruptPayload         Kind = "CORRUPT_PAYLOAD"
	KindInvalidRoot            Kind = "INVALID_ROOT"
	KindInvalidSchemaVersion   Kind = "INVALID_SCHEMA_VERSION"
	KindInvalidRole            Kind = "INVALID_ROLE"
	KindInvalidShape           Kind = "INVALID_SHAPE"
	KindStorageWriteBlocked    Kind = "STORAGE_WRITE_BLOCKED"
	KindForbidden              Kind = "FORBIDDEN"
	KindUserInvalid            Kind = "USER_INVALID"
	KindUserNameNotUnique      Kind = "USER_NAME_NOT_UNIQUE"
	KindItemInvalid            Kind = "ITEM_INVALID"
	KindItemArticleNoNotUnique Kind = "ITEM_ARTICLE_NO_NOT_UNIQUE"
	KindItemArticleNoImmutable Kind = "ITEM_ARTICLE_NO_IMMUTABLE"
	KindItemDeleteGuarded      Kind = "ITEM_DELETE_GUARDED"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotInitialized       = errors.New("el almacén no está inicializado")
	ErrCorruptPayload       = errors.New("payload persistido corrupto")
	ErrInvalidRoot          = errors.New("raíz del documento inválida")
	ErrInvalidSchemaVersion = errors.New("versión de esquema no soportada")
	ErrInvalidRole          = errors.New("rol de sesión inválido")
	ErrInvalidShape         = errors.New("forma del registro inválida")
	ErrStorageWriteBlocked  = errors.New("escritura en el medio de persistencia bloqueada")

	// Los tres motivos de autorización rechazada comparten KindForbidden;
	// el mensaje permite distinguirlos.
	ErrLocked           = errors.New("documento bloqueado")
	ErrReadOnly         = errors.New("documento en modo solo lectura")
	ErrPermissionDenied = errors.New("permiso insuficiente")

	ErrUserInvalid       = errors.New("usuario inválido")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrUserNameNotUnique = errors.New("el nombre de usuario ya existe")
	ErrLastActiveUser    = errors.New("no se puede desactivar el último usuario activo")

	ErrItemInvalid            = errors.New("artículo inválido")
	ErrItemNotFound           = errors.New("artículo no encontrado")
	ErrItemArticleNoNotUnique = errors.New("el número de artículo ya existe")
	ErrItemArticleNoImmutable = errors.New("el número de artículo no se puede modificar")
	ErrItemDeleteGuarded      = errors.New("borrado rechazado por guardas referenciales")
)

// KindOf mapea un error de dominio a su Kind.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotInitialized):
		return KindNotInitialized
	case errors.Is(err, ErrInvalidSchemaVersion):
		return KindInvalidSchemaVersion
	case errors.Is(err, ErrInvalidRole):
		return KindInvalidRole
	case errors.Is(err, ErrInvalidShape):
		return KindInvalidShape
	case errors.Is(err, ErrInvalidRoot):
		return KindInvalidRoot
	case errors.Is(err, ErrStorageWriteBlocked):
		return KindStorageWriteBlocked
	case errors.Is(err, ErrLocked), errors.Is(err, ErrReadOnly), errors.Is(err, ErrPermissionDenied):
		return KindForbidden
	case errors.Is(err, ErrUserNameNotUnique):
		return KindUserNameNotUnique
	case errors.Is(err, ErrUserInvalid), errors.Is(err, ErrUserNotFound), errors.Is(err, ErrLastActiveUser):
		return KindUserInvalid
	case errors.Is(err, ErrItemArticleNoNotUnique):
		return KindItemArticleNoNotUnique
	case errors.Is(err, ErrItemArticleNoImmutable):
		return KindItemArticleNoImmutable
	case errors.Is(err, ErrItemDeleteGuarded):
		return KindItemDeleteGuarded
	case errors.Is(err, ErrItemInvalid), errors.Is(err, ErrItemNotFound):
		return KindItemInvalid
	default:
		return KindCorruptPayload
	}
}
