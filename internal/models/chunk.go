package models

// DocumentChunk is one window of an ingested document
type DocumentChunk struct {
	Index  int    `json:"index"`
	Source string `json:"source"`
	Text   string `json:"text"`
}

// RetrievedChunk is a chunk returned by similarity search with its L2 distance to the query
type RetrievedChunk struct {
	DocumentChunk
	Distance float64 `json:"distance"`
}
