package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date      string   `json:"date"`
	ServiceID int64    `json:"serviceId"`
	Slots     []string `json:"slots"`            // ["09:00", "09:30", ...]
	Reason    string   `json:"reason,omitempty"` // closed | past | full, только для пустого списка
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	return &AvailableSlotsResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		ServiceID: resp.ServiceID,
		Slots:     slots,
		Reason:    string(resp.Reason),
	}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
// Дата разбирается в часовом поясе расписания
func ToUseCaseRequest(serviceID int64, dateStr string, loc *time.Location) (*getAvailableSlots.Request, error) {
	date, err := domain.ParseDate(dateStr, loc)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ServiceID: serviceID,
		Date:      date,
	}, nil
}
