package media

// Entry is one library item in a room: a stored video with an optional
// poster image. VideoURL and ImageURL are the serving URLs returned to
// clients unmodified.
type Entry struct {
	Title    string `redis:"title" json:"title"`
	VideoURL string `redis:"video_url" json:"video"`
	ImageURL string `redis:"image_url" json:"image"`
}

type SetEntryParams struct {
	Room     string `json:"room"`
	Title    string `json:"title"`
	VideoURL string `json:"video_url"`
	ImageURL string `json:"image_url"`
}
