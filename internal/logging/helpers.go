package logging

import "context"

// update применяет fn к копии logCtx из контекста (или к пустой) и кладёт результат обратно.
func update(ctx context.Context, fn func(c *logCtx)) context.Context {
	c, _ := ctx.Value(key).(logCtx)
	fn(&c)
	return context.WithValue(ctx, key, c)
}

// WithLogRequestID добавляет request ID в контекст.
func WithLogRequestID(ctx context.Context, requestID string) context.Context {
	return update(ctx, func(c *logCtx) { c.RequestID = requestID })
}

// WithLogRequestPath добавляет путь запроса в контекст.
func WithLogRequestPath(ctx context.Context, path string) context.Context {
	return update(ctx, func(c *logCtx) { c.Path = path })
}

// WithLogRequestMethod добавляет метод запроса в контекст.
func WithLogRequestMethod(ctx context.Context, method string) context.Context {
	return update(ctx, func(c *logCtx) { c.Method = method })
}

// WithLogRequestStatus добавляет статус ответа в контекст.
func WithLogRequestStatus(ctx context.Context, status int) context.Context {
	return update(ctx, func(c *logCtx) { c.Status = status })
}

// WithLogRequestDuration добавляет длительность запроса в контекст.
func WithLogRequestDuration(ctx context.Context, duration string) context.Context {
	return update(ctx, func(c *logCtx) { c.RequestDuration = duration })
}

// WithLogRoomID добавляет ID комнаты в контекст.
func WithLogRoomID(ctx context.Context, roomID string) context.Context {
	return update(ctx, func(c *logCtx) { c.RoomID = roomID })
}

// WithLogParticipantsCount добавляет количество участников комнаты в контекст.
func WithLogParticipantsCount(ctx context.Context, cnt int) context.Context {
	return update(ctx, func(c *logCtx) { c.ParticipantsCount = cnt })
}

// WithLogAssignmentID добавляет ID назначения в контекст.
func WithLogAssignmentID(ctx context.Context, assignmentID string) context.Context {
	return update(ctx, func(c *logCtx) { c.AssignmentID = assignmentID })
}

// WithLogDraw добавляет статистику жеребьёвки: число попыток и сработал ли циклический сдвиг.
func WithLogDraw(ctx context.Context, attempts int, fallback bool) context.Context {
	return update(ctx, func(c *logCtx) {
		c.DrawAttempts = attempts
		c.DrawFallback = fallback
	})
}
