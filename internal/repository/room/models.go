package room

// Session is the registry record for one live connection. The member
// list order is kept separately as the join sequence score.
type Session struct {
	Username string `redis:"username" json:"username"`
	PeerId   string `redis:"peer_id" json:"peer_id"`
	Room     string `redis:"room" json:"room"`
}
