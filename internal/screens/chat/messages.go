package chat

import (
	"time"

	"github.com/complyx/complyx/internal/api"
	"github.com/complyx/complyx/internal/assessment"
	chatstate "github.com/complyx/complyx/internal/chat"
)

// phaseStartedMsg is sent when phase selection (and lazy assessment
// creation) completes.
type phaseStartedMsg struct {
	Phase api.Phase
	Err   error
}

// questionFetchedMsg carries a completed next-question fetch.
type questionFetchedMsg struct {
	Result assessment.FetchResult
}

// chatReplyMsg is sent when the free-form completion call returns.
type chatReplyMsg struct {
	Seq   uint64
	Reply string
	Err   error
}

// progressUpdatedMsg is sent when the background progress recompute returns.
type progressUpdatedMsg struct {
	Err error
}

// scoresUpdatedMsg is sent when the background score recompute returns.
type scoresUpdatedMsg struct {
	Err error
}

// typingTickMsg animates the typing indicator.
type typingTickMsg time.Time

// messagesLoadedMsg carries a resumed conversation's persisted messages.
type messagesLoadedMsg struct {
	Messages []chatstate.Message
	Err      error
}
