package snapshot

import "encoding/json"

type proposal struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Body        string        `json:"body"`
	IPFS        string        `json:"ipfs"`
	Space       *struct {
		ID string `json:"id"`
	} `json:"space"`
	Choices     []string      `json:"choices"`
	Created     json.Number   `json:"created"`
	Start       json.Number   `json:"start"`
	End         json.Number   `json:"end"`
	State       string        `json:"state"`
	Network     string        `json:"network"`
	Snapshot    string        `json:"snapshot"`
	Scores      []json.Number `json:"scores"`
	ScoresTotal *json.Number  `json:"scores_total"`
	Votes       json.Number   `json:"votes"`
}

type proposalsResponse struct {
	Proposals []proposal `json:"proposals"`
}

type proposalResponse struct {
	Proposal *proposal `json:"proposal"`
}

type vote struct {
	Voter   string          `json:"voter"`
	Choice  json.RawMessage `json:"choice"`
	VP      *json.Number    `json:"vp"`
	Created json.Number     `json:"created"`
}

type votesResponse struct {
	Votes []vote `json:"votes"`
}
