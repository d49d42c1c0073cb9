package model

// Gender is a globally-listed lookup entity.
type Gender struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// State is a seeded lookup entity; cities hang off it.
type State struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	UF   string `json:"uf"`
}

// City belongs to a state; city lists are cached per parent state.
type City struct {
	ID      int    `json:"id"`
	StateID int    `json:"state_id"`
	Name    string `json:"name"`
}
