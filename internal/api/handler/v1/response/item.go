package response

type Message struct {
	Message string `json:"message"`
}

type Health struct {
	Status string `json:"status"`
}
