package watchlist

// Anime is a catalog entry as tracked by exactly one user. Every addition
// creates a new row, so the row is privately owned by the link that
// created it.
type Anime struct {
	ID              int64   `json:"anime_id"`
	SourceID        int64   `json:"source_id"`
	Title           string  `json:"title"`
	TitleLocalized  *string `json:"title_localized"`
	ImageRef        string  `json:"image_ref"`
	WatchedEpisodes int     `json:"watched_episodes"`
	// TotalEpisodes is display text ("24", "Ongoing"); it is not compared
	// against WatchedEpisodes.
	TotalEpisodes string `json:"total_episodes"`
}

// Attributes are the user-supplied fields of a new catalog entry.
type Attributes struct {
	SourceID        int64
	Title           string
	TitleLocalized  *string
	ImageRef        string
	WatchedEpisodes int
	TotalEpisodes   string
}
