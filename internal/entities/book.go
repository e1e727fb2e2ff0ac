package entities

// DateLayout is the calendar-date format used on every record.
const DateLayout = "2006-01-02"

// GenreOther is the sentinel genre assigned when a catalog result
// carries no category information.
const GenreOther = "Other"

type Status string

const (
	StatusToRead   Status = "to-read"
	StatusReading  Status = "reading"
	StatusFinished Status = "finished"
)

// Valid reports whether s is one of the known reading statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusFinished:
		return true
	}
	return false
}

// StatusChange is one entry of a book's status history.
type StatusChange struct {
	Date   string `json:"date"`
	Status Status `json:"status"`
}

// ReadingTime records when a book was read and how long it took.
type ReadingTime struct {
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	TotalHours   int    `json:"totalHours"`
	TotalMinutes int    `json:"totalMinutes"`
}

// Minutes returns the total reading time in minutes.
func (rt ReadingTime) Minutes() int {
	return rt.TotalHours*60 + rt.TotalMinutes
}

// IsZero reports whether no reading time has been entered yet.
func (rt ReadingTime) IsZero() bool {
	return rt.StartDate == "" && rt.EndDate == "" && rt.TotalHours == 0 && rt.TotalMinutes == 0
}

// Book is one entry of the user's collection. The JSON field names are
// the stored wire format, so changing them breaks existing shelf data.
type Book struct {
	ID            int            `json:"id"`
	Title         string         `json:"title"`
	Author        string         `json:"author"`
	Cover         string         `json:"cover"`
	Review        string         `json:"review"`
	Date          string         `json:"date"`
	Genre         string         `json:"genre"`
	Status        Status         `json:"status"`
	PageCount     int            `json:"pageCount"`
	Rating        float64        `json:"rating,omitempty"`
	Quotes        []string       `json:"quotes,omitempty"`
	StatusHistory []StatusChange `json:"statusHistory,omitempty"`
	ReadingTime   *ReadingTime   `json:"readingTime,omitempty"`
}

// NextID returns max(existing ids)+1, or 1 for an empty collection.
// Identifiers are never reused after deletion.
func NextID(books []Book) int {
	max := 0
	for _, b := range books {
		if b.ID > max {
			max = b.ID
		}
	}
	return max + 1
}

// HasStatusChange reports whether the history already contains the
// exact (date, status) pair.
func (b *Book) HasStatusChange(date string, status Status) bool {
	for _, h := range b.StatusHistory {
		if h.Date == date && h.Status == status {
			return true
		}
	}
	return false
}
