package models

const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	StateAll      = "ALL"
	StateCurrent  = "CURRENT"
	StatePast     = "PAST"
	StateFuture   = "FUTURE"
	StateWaiting  = "WAITING"
	StateRejected = "REJECTED"
)

const (
	// RateLimitRequests количество запросов в окне на одного пользователя
	RateLimitRequests = 60

	// RateLimitWindow окно ограничения частоты запросов
	RateLimitWindow = 60 // 1 минута в секундах

	// ExportQueueSize размер очереди воркера экспорта
	ExportQueueSize = 64
)
