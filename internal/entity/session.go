package entity

// Session binds a browser to its hot-seat game.
type Session struct {
	ID   string `json:"id"`
	Game *Game  `json:"game"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:   id,
		Game: NewGame(),
	}
}
