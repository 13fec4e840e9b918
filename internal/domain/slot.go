package domain

// EmptyReason объясняет, почему список слотов пуст
type EmptyReason string

const (
	ReasonNone   EmptyReason = ""
	ReasonClosed EmptyReason = "closed" // нет активного правила на этот день
	ReasonPast   EmptyReason = "past"   // день в прошлом или все слоты раньше lead time
	ReasonFull   EmptyReason = "full"   // слоты есть, но все заняты
)
