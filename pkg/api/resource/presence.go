package resource

import "sort"

type PresenceResource struct {
	UserID         string `json:"userId"`
	Username       string `json:"username,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Online         bool   `json:"online"`
}

type PresenceListResource struct {
	Members []*PresenceResource `json:"members"`
}

func NewPresence(userID, username, profilePicture string) (out *PresenceResource) {
	out = &PresenceResource{
		UserID:         userID,
		Username:       username,
		ProfilePicture: profilePicture,
		Online:         true,
	}

	return // out
}

func NewPresenceList() (out *PresenceListResource) {
	out = &PresenceListResource{
		Members: make([]*PresenceResource, 0),
	}

	return // out
}

func (l *PresenceListResource) Add(r *PresenceResource) {
	l.Members = append(l.Members, r)
}

// Sort applies the default order by user id
func (l *PresenceListResource) Sort() {
	sort.Slice(l.Members, func(i, j int) bool {
		return l.Members[i].UserID < l.Members[j].UserID
	})
}
