package query

// Flat query levels.
const (
	PatientsLevel = "patients"
	StudiesLevel  = "studies"
)

// SeriesLevel returns the level listing the series of a study.
func SeriesLevel(studyID string) string {
	return "studies/" + studyID + "/series"
}

// InstancesLevel returns the level listing the instances of a series.
func InstancesLevel(studyID, seriesID string) string {
	return "studies/" + studyID + "/series/" + seriesID + "/instances"
}
