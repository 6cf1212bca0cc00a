package models

// BannerResponse is the envelope of the raw Banner/Ellucian course dump.
type BannerResponse struct {
	Success    bool           `json:"success"`
	TotalCount int            `json:"totalCount"`
	Data       []BannerCourse `json:"data"`
}

// BannerCourse is one raw catalog record as exported by Banner. Only the
// fields the normalizer consumes are declared; the rest of the payload is
// ignored during decoding.
type BannerCourse struct {
	ID                    int64                  `json:"id"`
	Term                  string                 `json:"term"`
	CourseReferenceNumber string                 `json:"courseReferenceNumber"`
	CourseNumber          string                 `json:"courseNumber"`
	Subject               string                 `json:"subject"`
	SequenceNumber        string                 `json:"sequenceNumber"`
	ScheduleType          string                 `json:"scheduleTypeDescription"`
	CourseTitle           string                 `json:"courseTitle"`
	CreditHours           *float64               `json:"creditHours"`
	CreditHourLow         float64                `json:"creditHourLow"`
	MaximumEnrollment     int                    `json:"maximumEnrollment"`
	Enrollment            int                    `json:"enrollment"`
	SeatsAvailable        int                    `json:"seatsAvailable"`
	WaitAvailable         int                    `json:"waitAvailable"`
	CrossList             *string                `json:"crossList"`
	OpenSection           bool                   `json:"openSection"`
	SubjectCourse         string                 `json:"subjectCourse"`
	Faculty               []BannerFaculty        `json:"faculty"`
	MeetingsFaculty       []BannerMeetingFaculty `json:"meetingsFaculty"`
}

// BannerFaculty is a raw instructor record.
type BannerFaculty struct {
	BannerID         string `json:"bannerId"`
	DisplayName      string `json:"displayName"`
	EmailAddress     string `json:"emailAddress"`
	PrimaryIndicator bool   `json:"primaryIndicator"`
}

// BannerMeetingFaculty wraps one raw meeting-time entry.
type BannerMeetingFaculty struct {
	MeetingTime BannerMeetingTime `json:"meetingTime"`
}

// BannerMeetingTime carries weekday boolean flags plus HHMM begin/end times.
type BannerMeetingTime struct {
	BeginTime           string `json:"beginTime"`
	EndTime             string `json:"endTime"`
	Building            string `json:"building"`
	BuildingDescription string `json:"buildingDescription"`
	Room                string `json:"room"`
	StartDate           string `json:"startDate"`
	EndDate             string `json:"endDate"`
	Monday              bool   `json:"monday"`
	Tuesday             bool   `json:"tuesday"`
	Wednesday           bool   `json:"wednesday"`
	Thursday            bool   `json:"thursday"`
	Friday              bool   `json:"friday"`
	Saturday            bool   `json:"saturday"`
	Sunday              bool   `json:"sunday"`
}

// TimeTBA is the sentinel for meeting entries without a fixed time.
const TimeTBA = "TBA"

// Section is one normalized offering of a course. Sections are immutable
// once produced by the catalog service.
type Section struct {
	ID                    int64         `json:"id"`
	Term                  string        `json:"term"`
	CourseReferenceNumber string        `json:"courseReferenceNumber"`
	SubjectCourse         string        `json:"subjectCourse"`
	CourseTitle           string        `json:"courseTitle"`
	Subject               string        `json:"subject"`
	CourseNumber          string        `json:"courseNumber"`
	Label                 string        `json:"section"`
	CreditHours           float64       `json:"creditHours"`
	MaximumEnrollment     int           `json:"maximumEnrollment"`
	Enrollment            int           `json:"enrollment"`
	SeatsAvailable        int           `json:"seatsAvailable"`
	OpenSection           bool          `json:"openSection"`
	ScheduleType          string        `json:"scheduleType"`
	WaitAvailable         int           `json:"waitAvailable"`
	Faculty               []Faculty     `json:"faculty"`
	MeetingTimes          []MeetingTime `json:"meetingTimes"`
	CrossList             string        `json:"crossList,omitempty"`
	// Cycle tags half-term sections: 1 or 2, 0 when the section spans the
	// whole term. Sections in different defined cycles never conflict.
	Cycle int `json:"cycle,omitempty"`
}

// Faculty is a normalized instructor entry.
type Faculty struct {
	BannerID    string `json:"bannerId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	IsPrimary   bool   `json:"isPrimary"`
}

// MeetingTime is one contiguous weekly block belonging to a Section.
type MeetingTime struct {
	BeginTime           string   `json:"beginTime"`
	EndTime             string   `json:"endTime"`
	Days                []string `json:"days"`
	Building            string   `json:"building"`
	BuildingDescription string   `json:"buildingDescription"`
	Room                string   `json:"room"`
	StartDate           string   `json:"startDate"`
	EndDate             string   `json:"endDate"`
}

// TimeInterval is a single (day, begin, end) tuple derived from expanding a
// MeetingTime's weekday set. Ephemeral, used by conflict and filter logic.
type TimeInterval struct {
	Day       string `json:"day"`
	BeginTime string `json:"beginTime"`
	EndTime   string `json:"endTime"`
	Building  string `json:"building"`
	Room      string `json:"room"`
}
