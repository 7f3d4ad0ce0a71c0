package domain

// Participant is one person of the community, consolidated across every
// group they were seen in.
type Participant struct {
	ID           string   `json:"id"`
	Name         string   `json:"name,omitempty"`
	IsAdmin      bool     `json:"is_admin"`
	IsSuperAdmin bool     `json:"is_super_admin"`
	Groups       []string `json:"groups"`
}

// Sighting is a participant as observed in a single group's member list.
type Sighting struct {
	ID           string
	Name         string
	IsAdmin      bool
	IsSuperAdmin bool
}

// HasAdminRights reports whether the sighting carries admin or super-admin rights.
func (s Sighting) HasAdminRights() bool {
	return s.IsAdmin || s.IsSuperAdmin
}

// Clone returns a copy that shares no slices with p.
func (p *Participant) Clone() *Participant {
	c := *p
	c.Groups = append([]string(nil), p.Groups...)
	return &c
}

// InGroup reports whether the participant has been recorded in the named group.
func (p *Participant) InGroup(name string) bool {
	for _, g := range p.Groups {
		if g == name {
			return true
		}
	}
	return false
}
