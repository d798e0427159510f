package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

const (
	MutationStatusSuccess = "success"
	MutationStatusError   = "error"
)

// MutationEnvelope is the single contract returned by admin write operations.
type MutationEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// DeviceError is the flat error body understood by the TV client.
type DeviceError struct {
	Error string `json:"error"`
}
