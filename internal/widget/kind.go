package widget

import "strings"

// Kind is the type tag of a widget.
type Kind string

const (
	KindSSHMarker  Kind = "WG_SSH_MARKER"
	KindSSHAddress Kind = "WG_SSH_ADDRESS"
	KindUserMarker Kind = "WG_USER_MARKER"
	KindUserName   Kind = "WG_USER_NAME"
	KindCustom     Kind = "WG_CUSTOM"
	KindCurrentDir Kind = "WG_CURRENT_DIR"
	KindJobsNumber Kind = "WG_JOBS_NUMBER"
	KindErrorCode  Kind = "WG_ERROR_CODE"
	KindGitBranch  Kind = "WG_GIT_BRANCH"
	KindGitMarker  Kind = "WG_GIT_MARKER"
)

// Kinds lists every supported type tag.
var Kinds = []Kind{
	KindSSHMarker,
	KindSSHAddress,
	KindUserMarker,
	KindUserName,
	KindCustom,
	KindCurrentDir,
	KindJobsNumber,
	KindErrorCode,
	KindGitBranch,
	KindGitMarker,
}

// ParseKind returns the kind named by tag.
func ParseKind(tag string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == tag {
			return k, nil
		}
	}
	return "", &UnknownKindError{Type: tag}
}

// short is the tag without its WG_ prefix, used in shell variable names.
func (k Kind) short() string {
	return strings.TrimPrefix(string(k), "WG_")
}

// Align tells which side of the line a widget is drawn on.
type Align int

const (
	Left Align = iota
	Right
)

func (a Align) String() string {
	if a == Right {
		return "right"
	}
	return "left"
}

func (a Align) letter() string {
	if a == Right {
		return "R"
	}
	return "L"
}
