package room

type SetSessionParams struct {
	ConnId   string `json:"conn_id"`
	Username string `json:"username"`
	PeerId   string `json:"peer_id"`
	Room     string `json:"room"`
}

type RemoveSessionParams struct {
	ConnId string `json:"conn_id"`
	Room   string `json:"room"`
}
