package cache

import "fmt"

// TagJobsPublic covers job list entries shared by all callers.
const TagJobsPublic = "jobs-public"

// TagJobs covers a job seeker's annotated job list.
func TagJobs(userID string) string {
	return fmt.Sprintf("jobs-%s", userID)
}

// TagApplications covers a job seeker's application list.
func TagApplications(userID string) string {
	return fmt.Sprintf("applications-%s", userID)
}

// TagBookmarks covers a job seeker's bookmark list.
func TagBookmarks(userID string) string {
	return fmt.Sprintf("bookmarks-%s", userID)
}

// TagJobDetails covers one job's detail view as seen by one job seeker.
func TagJobDetails(jobID, userID string) string {
	return fmt.Sprintf("job-details-%s-%s", jobID, userID)
}

// TagPostedJobs covers an employer's posted-jobs list.
func TagPostedJobs(employerID string) string {
	return fmt.Sprintf("posted-jobs-%s", employerID)
}

// TagPostedJobDetails covers one job's detail view as seen by its employer.
func TagPostedJobDetails(jobID, employerID string) string {
	return fmt.Sprintf("posted-job-details-%s-%s", jobID, employerID)
}
