package worker

import (
	"math"
	"time"
)

// RetryPolicy — параметры экспоненциальной выдержки между попытками выгрузки.
// Нулевое значение пригодно к работе: withDefaults подставляет параметры
// экспортного воркера.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// withDefaults заполняет незаданные поля: пять попыток, выдержка от 2s
// до 1m с удвоением.
func (r RetryPolicy) withDefaults() RetryPolicy {
	if r.MaxRetries <= 0 {
		r.MaxRetries = 5
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = 2 * time.Second
	}
	if r.MaxDelay <= 0 {
		r.MaxDelay = time.Minute
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}
	return r
}

// NextDelay — выдержка перед повтором attempt (нумерация с единицы).
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	r = r.withDefaults()

	delay := time.Duration(float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1)))
	// переполнение float→Duration дает отрицательное значение
	if delay <= 0 || delay > r.MaxDelay {
		delay = r.MaxDelay
	}
	return delay
}
