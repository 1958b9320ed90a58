package dto

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ConnectWalletRequest struct {
	WalletMethod  string `json:"wallet_method"`
	WalletAddress string `json:"wallet_address"`
}

type ManualConnectRequest struct {
	InputType string `json:"input_type"` // mnemonic / private_key
	Input     string `json:"input"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status"` // active / inactive / banned
}
