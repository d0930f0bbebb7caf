package api

// envelope is the `{success, data}` response shape of successful HTTP
// responses. Failed requests return a *echo.HTTPError (see
// mapServiceError), which echo's error handler renders in its own
// shape; the Error field is never set by this package.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(data any) envelope {
	return envelope{Success: true, Data: data}
}
