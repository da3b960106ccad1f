package types

// Song is one entry of the generated songs.json index.
// ID is nil when neither the [NUMBER] tag nor the file name carries a number.
type Song struct {
	ID       *int   `json:"id"`
	Title    string `json:"title"`
	File     string `json:"file"`
	Language string `json:"language"`
	Lyrics   string `json:"lyrics"`
}
