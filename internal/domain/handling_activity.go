package domain

// HandlingActivity is an event the plan predicts will happen next.
type HandlingActivity struct {
	Type     HandlingEventType
	Location Location
	Voyage   VoyageNumber
}

// NoActivity is the zero activity: nothing is expected.
var NoActivity = HandlingActivity{}

func (a HandlingActivity) IsEmpty() bool { return a.Type == 0 }

func (a HandlingActivity) Equal(other HandlingActivity) bool {
	return a.Type == other.Type &&
		a.Location.SameIdentityAs(other.Location) &&
		a.Voyage == other.Voyage
}
