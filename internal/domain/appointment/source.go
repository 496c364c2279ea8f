package appointment

type Source string

const (
	SourceOnline     Source = "online"
	SourceVoiceAgent Source = "voice_agent"
	SourceManual     Source = "manual"
	SourcePhone      Source = "phone"
	SourceWalkIn     Source = "walk_in"
)

func (s Source) Valid() bool {
	switch s {
	case SourceOnline, SourceVoiceAgent, SourceManual, SourcePhone, SourceWalkIn:
		return true
	}
	return false
}
