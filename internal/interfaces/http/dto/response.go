package dto

import "time"

// Response is the envelope every endpoint answers with: data on
// success, an ErrorInfo otherwise, and pagination meta when listing.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Details   []ValidationDetail `json:"details,omitempty"`
	Help      string             `json:"help,omitempty"`
}

// ValidationDetail describes a single invalid field.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta carries pagination totals alongside list data.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

func NewSuccessResponseWithMeta(data any, total int64, page, pageSize int) Response {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}
}

// failure stamps the envelope; the code is normalized to ERR_* form.
func failure(info ErrorInfo) Response {
	info.Code = NormalizeErrorCode(info.Code)
	info.Timestamp = time.Now().UTC()
	return Response{Success: false, Error: &info}
}

func NewErrorResponse(code, message string) Response {
	return failure(ErrorInfo{Code: code, Message: message})
}

// NewErrorResponseWithRequestID carries the request ID for log
// correlation.
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return failure(ErrorInfo{Code: code, Message: message, RequestID: requestID})
}

// NewValidationErrorResponse reports per-field binding failures.
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	return failure(ErrorInfo{
		Code:      ErrCodeValidation,
		Message:   message,
		RequestID: requestID,
		Details:   details,
	})
}

// NewErrorResponseWithHelp points the caller at documentation for the
// error.
func NewErrorResponseWithHelp(code, message, requestID, help string) Response {
	return failure(ErrorInfo{Code: code, Message: message, RequestID: requestID, Help: help})
}
