package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-InstantBookingService/pkg/types"
)

// Settings сетка слотов: рабочий день и шаг
type Settings struct {
	WorkdayStart       int // минуты от полуночи
	WorkdayEnd         int // минуты от полуночи
	StepMinutes        int
	AdvanceBookingDays int // 0 = без ограничений
	Location           *time.Location
}

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID     int64     // ID услуги
	Date          time.Time // Дата для получения слотов (без времени)
	DurationHours int       // Длительность уборки, приводится к [1, 8]
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	ServiceID       int64     // ID услуги
	DurationMinutes int       // Длительность после приведения к допустимому диапазону
	Slots           []Slot    // Список слотов
}

// Slot модель временного слота
type Slot struct {
	StartTime          types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes    int              // Длительность слота в минутах
	AvailableProviders int              // Сколько исполнителей свободны весь слот
	TotalProviders     int              // Сколько исполнителей оказывают услугу
}
