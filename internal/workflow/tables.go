package workflow

// Transition tables for every stateful entity. Initial statuses: appointments
// start scheduled, leave starts pending, referrals pending, tasks pending,
// bills pending, claims submitted.
var (
	Appointment = Transitions{
		"scheduled": {"completed", "cancelled", "no_show"},
	}

	Leave = Transitions{
		"pending": {"approved", "rejected"},
	}

	Referral = Transitions{
		"pending":  {"accepted", "declined"},
		"accepted": {"completed"},
	}

	Task = Transitions{
		"pending":     {"in_progress", "completed", "cancelled"},
		"in_progress": {"completed", "cancelled"},
	}

	Bill = Transitions{
		"pending": {"paid", "cancelled"},
		"paid":    {"cancelled"},
	}

	Claim = Transitions{
		"submitted":  {"processing"},
		"processing": {"approved", "rejected"},
		"approved":   {"completed"},
		"rejected":   {"completed"},
	}
)
