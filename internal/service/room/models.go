package room

type Session struct {
	ConnId   string `json:"conn_id"`
	Username string `json:"username"`
	PeerId   string `json:"peer_id"`
	Room     string `json:"room"`
}
