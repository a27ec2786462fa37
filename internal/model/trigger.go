package model

// TriggerKind identifies what event starts a pipeline.
type TriggerKind string

const (
	TriggerPush        TriggerKind = "push"
	TriggerPullRequest TriggerKind = "pull_request"
	TriggerTag         TriggerKind = "tag"
	TriggerSchedule    TriggerKind = "schedule"
	TriggerManual      TriggerKind = "manual"
)

// Trigger describes one pipeline start condition. Only the fields
// relevant to its Kind are set.
type Trigger struct {
	Kind     TriggerKind
	Branches []string // push, pull_request
	Pattern  string   // tag glob, e.g. "v*"
	Cron     string   // schedule
}

// OnPush triggers on pushes to the given branches.
func OnPush(branches ...string) Trigger {
	return Trigger{Kind: TriggerPush, Branches: branches}
}

// OnPullRequest triggers on pull requests targeting the given branches.
func OnPullRequest(branches ...string) Trigger {
	return Trigger{Kind: TriggerPullRequest, Branches: branches}
}

// OnTag triggers on tag pushes matching pattern.
func OnTag(pattern string) Trigger {
	return Trigger{Kind: TriggerTag, Pattern: pattern}
}

// OnSchedule triggers on a cron schedule.
func OnSchedule(cron string) Trigger {
	return Trigger{Kind: TriggerSchedule, Cron: cron}
}

// OnManual triggers only when started by hand.
func OnManual() Trigger {
	return Trigger{Kind: TriggerManual}
}

// Runner identifies the machine type a job runs on, using the
// ubuntu/macos/windows vocabulary GitHub popularized. Adapters map it to
// their own runner or image notion; unrecognized values pass through as
// custom labels.
type Runner string

const (
	UbuntuLatest  Runner = "ubuntu-latest"
	Ubuntu2204    Runner = "ubuntu-22.04"
	Ubuntu2004    Runner = "ubuntu-20.04"
	MacOSLatest   Runner = "macos-latest"
	MacOS13       Runner = "macos-13"
	WindowsLatest Runner = "windows-latest"
	Windows2022   Runner = "windows-2022"
)
