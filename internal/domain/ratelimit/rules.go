package ratelimit

import "time"

// Rule defines a quota: at most Max calls of Action per actor in a fixed window
// that starts at the first call. NewUserMax, when set, replaces Max for new accounts.
type Rule struct {
	Action     string
	Window     time.Duration
	Max        int
	NewUserMax int
}

// Limit returns the quota that applies to the caller
func (r Rule) Limit(newAccount bool) int {
	if newAccount && r.NewUserMax > 0 {
		return r.NewUserMax
	}
	return r.Max
}

const (
	hour = time.Hour
	day  = 24 * time.Hour
)

// Per-operation quotas
var (
	RuleCreatePost              = Rule{Action: "createPost", Window: hour, Max: 5}
	RuleCreateComment           = Rule{Action: "createComment", Window: hour, Max: 20}
	RuleCreateBookingRequest    = Rule{Action: "createBookingRequest", Window: day, Max: 10}
	RuleRespondToBookingRequest = Rule{Action: "respondToBookingRequest", Window: hour, Max: 60}
	RuleCreateShortlist         = Rule{Action: "createShortlist", Window: day, Max: 20}
	RuleCreateConversation      = Rule{Action: "createConversationFromAcceptedRequest", Window: hour, Max: 20}
	RuleSendMessage             = Rule{Action: "sendMessage", Window: hour, Max: 30}
	RuleRequestContactShare     = Rule{Action: "requestContactShare", Window: day, Max: 10}
	RuleApproveContactShare     = Rule{Action: "approveContactShare", Window: day, Max: 20}
	RuleReportContent           = Rule{Action: "reportContent", Window: day, Max: 10, NewUserMax: 3}
	RuleBlockUser               = Rule{Action: "blockUser", Window: day, Max: 30}
	RuleUnblockUser             = Rule{Action: "unblockUser", Window: day, Max: 30}
)
