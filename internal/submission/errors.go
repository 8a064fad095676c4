package submission

import "errors"

// Rejection codes, one per precondition.
const (
	CodeSupplierRequired     = "SUPPLIER_REQUIRED"
	CodeCategoryRequired     = "CATEGORY_REQUIRED"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
)

// Rejection is a local refusal to submit. No intake call is made.
type Rejection struct {
	Code    string
	Message string
}

func (r *Rejection) Error() string { return r.Message }

// Is matches rejections by code so callers can use errors.Is with the
// exported sentinels.
func (r *Rejection) Is(target error) bool {
	t, ok := target.(*Rejection)
	return ok && t.Code == r.Code
}

var (
	ErrNoSupplier = &Rejection{
		Code:    CodeSupplierRequired,
		Message: "Busque pelo nome da sua empresa antes de enviar documentos.",
	}
	ErrNoCategory = &Rejection{
		Code:    CodeCategoryRequired,
		Message: "Informe a CATEGORIA para sabermos os requisitos que você necessita ter.",
	}
	ErrConfirmationRequired = &Rejection{
		Code:    CodeConfirmationRequired,
		Message: "Você não anexou nenhum documento. Quer continuar mesmo assim?",
	}
)

// ErrInProgress is returned when a submission is already running for the session.
var ErrInProgress = errors.New("a submission is already in progress")
