package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/salonkit/salon-scheduler/internal/domain/appointment"
	"github.com/salonkit/salon-scheduler/internal/httperr"
)

// mapAppointmentError traduz erros de negócio do core para HTTP.
// Conflito (pré-checagem ou corrida perdida no banco) vira 409.
func mapAppointmentError(c *gin.Context, err error) {
	if conflict, ok := domain.AsConflict(err); ok {
		msg := "Conflito de horário."
		if conflict.Conflicting != nil {
			msg = "Conflito de horário com agendamento existente (" +
				conflict.Conflicting.StartTime.Format("02/01/2006 15:04") + " - " +
				conflict.Conflicting.EndTime.Format("15:04") + ")."
		}
		httperr.Conflict(c, httperr.CodeTimeConflict, msg)
		return
	}

	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	switch code {
	case httperr.CodeProfessionalNotFound:
		httperr.NotFound(c, code, "Profissional não encontrado.")
	case httperr.CodeProfessionalInactive:
		httperr.BadRequest(c, code, "Profissional inativo.")
	case httperr.CodeServiceNotFound:
		httperr.NotFound(c, code, "Serviço não encontrado.")
	case httperr.CodeServiceInactive:
		httperr.BadRequest(c, code, "Serviço inativo.")
	case httperr.CodeInvalidInterval:
		httperr.BadRequest(c, code, "Início deve ser antes do fim.")
	case httperr.CodePastStartTime:
		httperr.BadRequest(c, code, "Não é possível agendar no passado.")
	case httperr.CodeDurationMismatch:
		httperr.BadRequest(c, code, "Duração não corresponde ao serviço.")
	case httperr.CodeAppointmentNotFound:
		httperr.NotFound(c, code, "Agendamento não encontrado.")
	case httperr.CodeInvalidState:
		httperr.BadRequest(c, code, "Transição de status inválida.")
	default:
		httperr.BadRequest(c, code, "Requisição inválida.")
	}
}
