package encounter

import "fmt"

// ChoiceOption is one selectable option in a descriptor.
type ChoiceOption struct {
	ID    Choice
	Label string
}

// Descriptor is the presentation-facing view of a record: a title, a
// description, and the ordered choices offered to the player. It is a pure
// read-only projection with no behavior.
type Descriptor struct {
	Title       string
	Description string
	Choices     []ChoiceOption
}

// Describe projects a record into its interaction descriptor.
func Describe(r *Record) Descriptor {
	switch p := r.Params.(type) {
	case CombatParams:
		title := p.Monster
		if p.Elite {
			title = fmt.Sprintf("%s (elite)", p.Monster)
		}
		return Descriptor{
			Title:       title,
			Description: fmt.Sprintf("%s blocks the way (force %d).", p.Monster, p.Force),
			Choices:     []ChoiceOption{{ID: "fight", Label: "Fight"}},
		}
	case ChestParams:
		return Descriptor{
			Title:       "Chest",
			Description: p.Description,
			Choices: []ChoiceOption{
				{ID: ChoiceOpen, Label: "Open it"},
				{ID: ChoiceIgnore, Label: "Leave it"},
			},
		}
	case DialogueParams:
		d := Descriptor{
			Title:       p.Character,
			Description: p.Prompt,
		}
		for _, c := range p.Choices {
			d.Choices = append(d.Choices, ChoiceOption{ID: Choice(c.ID), Label: c.Label})
		}
		return d
	case ShrineParams:
		return Descriptor{
			Title:       "Shrine",
			Description: p.Description,
			Choices: []ChoiceOption{
				{ID: ChoiceSacrifice, Label: fmt.Sprintf("Sacrifice %d HP", p.Cost)},
				{ID: ChoiceRefuse, Label: "Refuse"},
			},
		}
	default:
		return Descriptor{Title: "Unknown"}
	}
}
