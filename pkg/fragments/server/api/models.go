package api

type messageResponse struct {
	Message string `json:"message"`
}

type addressResponse struct {
	Address string `json:"address"`
}

type balanceResponse struct {
	Balance string `json:"balance"`
}

type signatureResponse struct {
	Signature string `json:"signature"`
}

type countResponse struct {
	Count string `json:"count"`
}

type newCountResponse struct {
	NewCount string `json:"new_count"`
}

type initialiseRoundResponse struct {
	Address   string `json:"address"`
	StartSlot string `json:"start_slot"`
}

// roundResponse leaves unset values as null
type roundResponse struct {
	StartSlot   string  `json:"start_slot"`
	Authority   string  `json:"authority"`
	ActivatedAt *string `json:"activated_at"`
	ActivatedBy *string `json:"activated_by"`
	CompletedAt *string `json:"completed_at"`
}

type usernameRequest struct {
	Username string `json:"username" validate:"required"`
}

type userAccountResponse struct {
	Username              string   `json:"username"`
	ChangeCount           string   `json:"change_count"`
	UsernameRecentHistory []string `json:"username_recent_history"`
}

type usernameRecordResponse struct {
	OldUsername string `json:"old_username"`
	ChangeIndex string `json:"change_index"`
	Authority   string `json:"authority"`
}
