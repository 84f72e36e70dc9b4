package session

// roster is the insertion-ordered name⇄connection bijection plus the
// connection→colour map described for the seated-player state.
type roster struct {
	order       []string
	nameToConn  map[string]*Client
	connToName  map[*Client]string
	connToColor map[*Client]string
}

func newRoster() *roster {
	return &roster{
		nameToConn:  make(map[string]*Client),
		connToName:  make(map[*Client]string),
		connToColor: make(map[*Client]string),
	}
}

func (r *roster) nameTaken(name string) bool {
	_, ok := r.nameToConn[name]
	return ok
}

func (r *roster) colourTaken(colour string) bool {
	for _, c := range r.connToColor {
		if c == colour {
			return true
		}
	}
	return false
}

func (r *roster) seat(c *Client, name, colour string) {
	r.order = append(r.order, name)
	r.nameToConn[name] = c
	r.connToName[c] = name
	r.connToColor[c] = colour
}

func (r *roster) nameOf(c *Client) (string, bool) {
	n, ok := r.connToName[c]
	return n, ok
}

func (r *roster) colourOf(c *Client) (string, bool) {
	col, ok := r.connToColor[c]
	return col, ok
}

func (r *roster) connOf(name string) (*Client, bool) {
	c, ok := r.nameToConn[name]
	return c, ok
}

func (r *roster) unseat(c *Client) {
	name, ok := r.connToName[c]
	if !ok {
		return
	}
	delete(r.connToName, c)
	delete(r.connToColor, c)
	delete(r.nameToConn, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *roster) names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *roster) colours() []string {
	out := make([]string, 0, len(r.connToColor))
	for _, name := range r.order {
		c, _ := r.nameToConn[name]
		if col, ok := r.connToColor[c]; ok {
			out = append(out, col)
		}
	}
	return out
}

func (r *roster) seatedClients() []*Client {
	out := make([]*Client, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.nameToConn[name])
	}
	return out
}

func (r *roster) reset() {
	r.order = nil
	r.nameToConn = make(map[string]*Client)
	r.connToName = make(map[*Client]string)
	r.connToColor = make(map[*Client]string)
}
