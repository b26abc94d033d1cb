package entity

// Vertical is the top-level taxonomy node.
type Vertical struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	LogoURL     string       `json:"logoUrl"`
	Description string       `json:"description"`
	Status      RecordStatus `json:"status"`
}

func (v *Vertical) Clone() *Vertical {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Subtitle groups notes inside a vertical. VerticalID must reference an existing Vertical.
type Subtitle struct {
	ID          string       `json:"id"`
	VerticalID  string       `json:"verticalId"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Status      RecordStatus `json:"status"`
}

func (s *Subtitle) Clone() *Subtitle {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
