package engine

import (
	"github.com/playasoft/camp-registration-api/internal/models"
)

// JobAvailable reports whether the job still has open slots. Jobs always
// carry a positive cap.
func JobAvailable(j models.Job) bool {
	return j.CurrentRegistrations < j.MaxRegistrations
}

// OptionAvailable reports whether the camping option still has open
// signups. MaxSignups of 0 means unlimited.
func OptionAvailable(o models.CampingOption) bool {
	return o.MaxSignups == 0 || o.CurrentRegistrations < o.MaxSignups
}

// PartitionJobs splits jobs into available and full. Full jobs stay
// visible to the UI but cannot be selected and never satisfy a
// requirement.
func PartitionJobs(jobs []models.Job) (available, full []models.Job) {
	for _, j := range jobs {
		if JobAvailable(j) {
			available = append(available, j)
		} else {
			full = append(full, j)
		}
	}
	return available, full
}

// PartitionOptions splits camping options into available and full the
// same way.
func PartitionOptions(options []models.CampingOption) (available, full []models.CampingOption) {
	for _, o := range options {
		if OptionAvailable(o) {
			available = append(available, o)
		} else {
			full = append(full, o)
		}
	}
	return available, full
}

// AvailableJobsFor returns the jobs the registrant can actually take:
// not full, and not in a staff-only category unless the registrant is
// staff.
func AvailableJobsFor(catalog Catalog, staff bool) []models.Job {
	var jobs []models.Job
	for _, j := range catalog.Jobs {
		if !JobAvailable(j) {
			continue
		}
		if cat := catalog.Category(j.CategoryID); cat != nil && cat.StaffOnly && !staff {
			continue
		}
		jobs = append(jobs, j)
	}
	return jobs
}
