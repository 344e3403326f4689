package server

// QueryRequest is the body of POST /. Query is decoded as any so the
// handler can distinguish a missing field from a non-string value.
type QueryRequest struct {
	Query any `json:"query"`
}

// AnswerResponse is the success body of POST /.
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// ErrorResponse is the body of all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
