package player

import "fmt"

// Roster is the fixed, ordered set of players in one game and the side
// lookup from owner id to player.
type Roster struct {
	list []*Player
	byID map[int]*Player
}

func NewRoster(players ...*Player) (*Roster, error) {
	r := &Roster{byID: make(map[int]*Player, len(players))}
	for _, p := range players {
		if _, dup := r.byID[p.ID()]; dup {
			return nil, fmt.Errorf("duplicate player id %d", p.ID())
		}
		r.byID[p.ID()] = p
		r.list = append(r.list, p)
	}
	return r, nil
}

// All returns the players in roster order.
func (r *Roster) All() []*Player { return r.list }

func (r *Roster) Get(id int) (*Player, bool) {
	p, ok := r.byID[id]
	return p, ok
}

func (r *Roster) IDs() []int {
	ids := make([]int, len(r.list))
	for i, p := range r.list {
		ids[i] = p.ID()
	}
	return ids
}

func (r *Roster) Len() int { return len(r.list) }
