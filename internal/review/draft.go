package review

import "strings"

// AddParticipant appends a participant with a fresh id and an empty name.
func (d *Draft) AddParticipant() Participant {
	p := Participant{ID: NewID()}
	d.Participants = append(d.Participants, p)
	return p
}

// RenameParticipant sets the name of the participant with the given id.
// It reports whether the participant exists.
func (d *Draft) RenameParticipant(id, name string) bool {
	for i := range d.Participants {
		if d.Participants[i].ID == id {
			d.Participants[i].Name = name
			return true
		}
	}
	return false
}

// RemoveParticipant removes the participant and every score it owns.
// It reports whether the participant existed; nothing changes otherwise.
func (d *Draft) RemoveParticipant(id string) bool {
	idx := -1
	for i, p := range d.Participants {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	participants := make([]Participant, 0, len(d.Participants)-1)
	participants = append(participants, d.Participants[:idx]...)
	participants = append(participants, d.Participants[idx+1:]...)
	scores := filterScores(d.Scores, func(s Score) bool { return s.ParticipantID != id })

	d.Participants = participants
	d.Scores = scores
	return true
}

// AddCategory appends a category with a fresh id and an empty name.
func (d *Draft) AddCategory() Category {
	c := Category{ID: NewID()}
	d.Categories = append(d.Categories, c)
	return c
}

// AddCategories appends a category for each name not already present.
// Names are compared case-insensitively. It returns the categories added.
func (d *Draft) AddCategories(names ...string) []Category {
	seen := make(map[string]bool, len(d.Categories)+len(names))
	for _, c := range d.Categories {
		seen[strings.ToLower(c.Name)] = true
	}
	var added []Category
	for _, name := range names {
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		c := Category{ID: NewID(), Name: name}
		d.Categories = append(d.Categories, c)
		added = append(added, c)
	}
	return added
}

// RenameCategory sets the name of the category with the given id.
// It reports whether the category exists.
func (d *Draft) RenameCategory(id, name string) bool {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			d.Categories[i].Name = name
			return true
		}
	}
	return false
}

// RemoveCategory removes the category and every score filed under it.
// It reports whether the category existed; nothing changes otherwise.
func (d *Draft) RemoveCategory(id string) bool {
	idx := -1
	for i, c := range d.Categories {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	categories := make([]Category, 0, len(d.Categories)-1)
	categories = append(categories, d.Categories[:idx]...)
	categories = append(categories, d.Categories[idx+1:]...)
	scores := filterScores(d.Scores, func(s Score) bool { return s.CategoryID != id })

	d.Categories = categories
	d.Scores = scores
	return true
}

// Participant returns the participant with the given id.
func (d *Draft) Participant(id string) (Participant, bool) {
	for _, p := range d.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// Category returns the category with the given id.
func (d *Draft) Category(id string) (Category, bool) {
	for _, c := range d.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Empty reports whether the draft holds no data at all.
func (d *Draft) Empty() bool {
	return d.RestaurantName == "" && len(d.Participants) == 0 &&
		len(d.Categories) == 0 && len(d.Scores) == 0
}

// Clone returns a deep copy of the draft. Slices in the copy are never nil,
// so they encode as empty JSON arrays.
func (d Draft) Clone() Draft {
	return Draft{
		RestaurantName: d.RestaurantName,
		Participants:   append(make([]Participant, 0, len(d.Participants)), d.Participants...),
		Categories:     append(make([]Category, 0, len(d.Categories)), d.Categories...),
		Scores:         append(make([]Score, 0, len(d.Scores)), d.Scores...),
	}
}

// Clone returns a deep copy of the review.
func (r Review) Clone() Review {
	out := r
	out.Draft = r.Draft.Clone()
	if r.AverageScore != nil {
		v := *r.AverageScore
		out.AverageScore = &v
	}
	if r.StarRating != nil {
		v := *r.StarRating
		out.StarRating = &v
	}
	return out
}

func filterScores(scores []Score, keep func(Score) bool) []Score {
	out := make([]Score, 0, len(scores))
	for _, s := range scores {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}
