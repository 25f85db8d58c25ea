package model

import (
	"fmt"
	"strings"
)

// JobTitle is one of the closed set of job titles the salary model was trained on.
type JobTitle string

const (
	JobDisplacedDisasterWorker  JobTitle = "Displaced Disaster Worker"
	JobEMTParamedic             JobTitle = "EMT Paramedic"
	JobExceptionJobCode         JobTitle = "Exception Job Code"
	JobFireCaptain              JobTitle = "Fire Captain"
	JobFirefighter              JobTitle = "Firefighter"
	JobLaborer                  JobTitle = "Laborer"
	JobLibraryPage20            JobTitle = "Library Page (20 hrs)"
	JobLibraryTechnicianI       JobTitle = "Library Technician I"
	JobLibraryTechnicianI10     JobTitle = "Library Technician I (10 hrs)"
	JobMaintenanceWorkerI       JobTitle = "Maintenance Worker I"
	JobMaintenanceWorkerII      JobTitle = "Maintenance Worker II"
	JobPoliceCaptain            JobTitle = "Police Captain"
	JobPoliceLieutenant         JobTitle = "Police Lieutenant"
	JobPoliceOfficer            JobTitle = "Police Officer"
	JobPoliceSergeant           JobTitle = "Police Sergeant"
	JobSchoolCrossingGuard      JobTitle = "School Crossing Guard"
	JobSeniorClericalSpecialist JobTitle = "Senior Clerical Specialist"
)

// canonicalJobTitles is the column order of the one-hot block in the trained model.
var canonicalJobTitles = []JobTitle{
	JobDisplacedDisasterWorker,
	JobEMTParamedic,
	JobExceptionJobCode,
	JobFireCaptain,
	JobFirefighter,
	JobLaborer,
	JobLibraryPage20,
	JobLibraryTechnicianI,
	JobLibraryTechnicianI10,
	JobMaintenanceWorkerI,
	JobMaintenanceWorkerII,
	JobPoliceCaptain,
	JobPoliceLieutenant,
	JobPoliceOfficer,
	JobPoliceSergeant,
	JobSchoolCrossingGuard,
	JobSeniorClericalSpecialist,
}

// CanonicalJobTitles returns a copy of the 17 known titles in model order.
func CanonicalJobTitles() []JobTitle {
	out := make([]JobTitle, len(canonicalJobTitles))
	copy(out, canonicalJobTitles)
	return out
}

// Known reports whether t is one of the canonical titles.
func (t JobTitle) Known() bool {
	for _, c := range canonicalJobTitles {
		if c == t {
			return true
		}
	}
	return false
}

func (t JobTitle) String() string { return string(t) }

// ParseJobTitle matches s against the canonical titles, ignoring surrounding
// whitespace and letter case.
func ParseJobTitle(s string) (JobTitle, error) {
	s = strings.TrimSpace(s)
	for _, c := range canonicalJobTitles {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownJobTitle, s)
}

// JobCatalog is the ordered list of job titles in effect for one deployment.
// Its order defines the one-hot block of the feature vector.
type JobCatalog struct {
	titles []JobTitle
	index  map[JobTitle]int
}

// NewJobCatalog validates titles and builds a catalog. An empty list yields
// the canonical catalog.
func NewJobCatalog(titles []JobTitle) (*JobCatalog, error) {
	if len(titles) == 0 {
		titles = canonicalJobTitles
	}
	c := &JobCatalog{
		titles: make([]JobTitle, len(titles)),
		index:  make(map[JobTitle]int, len(titles)),
	}
	for i, t := range titles {
		if !t.Known() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownJobTitle, t)
		}
		if _, dup := c.index[t]; dup {
			return nil, fmt.Errorf("duplicate job title in catalog: %q", t)
		}
		c.titles[i] = t
		c.index[t] = i
	}
	return c, nil
}

// CatalogFromStrings parses each entry with ParseJobTitle and builds a catalog.
func CatalogFromStrings(names []string) (*JobCatalog, error) {
	titles := make([]JobTitle, 0, len(names))
	for _, n := range names {
		t, err := ParseJobTitle(n)
		if err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	return NewJobCatalog(titles)
}

// Len returns the number of titles.
func (c *JobCatalog) Len() int { return len(c.titles) }

// Titles returns a copy of the titles in catalog order.
func (c *JobCatalog) Titles() []JobTitle {
	out := make([]JobTitle, len(c.titles))
	copy(out, c.titles)
	return out
}

// IndexOf returns the one-hot position of t, or an ErrUnknownJobTitle error.
func (c *JobCatalog) IndexOf(t JobTitle) (int, error) {
	i, ok := c.index[t]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownJobTitle, t)
	}
	return i, nil
}
