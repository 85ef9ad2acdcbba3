package transport

// Envelope wraps every API response. Success payloads carry data; error
// payloads carry a machine-readable code and a human-readable message,
// plus per-field details when validation fails.
type Envelope struct {
	Status string       `json:"status"`
	Code   string       `json:"code,omitempty"`
	Data   interface{}  `json:"data,omitempty"`
	Error  string       `json:"error,omitempty"`
	Fields []FieldError `json:"fields,omitempty"`
}

// NewSuccess returns a success envelope around the payload.
func NewSuccess(data interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
	}
}

// NewError returns an error envelope.
func NewError(code, message string) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  message,
	}
}

// NewInvalid returns an error envelope that names the offending fields.
func NewInvalid(code string, fields []FieldError) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  "validation failed",
		Fields: fields,
	}
}
