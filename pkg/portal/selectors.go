package portal

// CSS selectors for the upload form and account header.
const (
	FileInputSelector       = `input[type="file"]`
	TitleInputSelector      = `input[placeholder*="标题"]`
	FallbackTitleSelector   = `input[type="text"]`
	DescriptionSelector     = `div[contenteditable="true"]`
	VerificationCodeInputs  = `input[type="text"], input[type="tel"], input[placeholder*="验证码"]`
	DefaultIdentityFallback = "User"
)

// IdentitySelectors are tried in order; the first element with text wins.
var IdentitySelectors = []string{
	".user-name",
	".nickname",
	`[class*="username"]`,
	`[class*="user"]`,
}

// ButtonMatch describes which button texts count as a hit. Text is
// trimmed before matching.
type ButtonMatch struct {
	Exact    []string `json:"exact,omitempty"`
	Contains []string `json:"contains,omitempty"`
}

// Button label sets for the publish flow.
var (
	PublishButton = ButtonMatch{Exact: []string{"发布", "立即发布"}}

	// RepublishButton is clicked again after a verification code is accepted
	RepublishButton = ButtonMatch{
		Exact:    []string{"发布", "立即发布"},
		Contains: []string{"确认发布"},
	}

	ConfirmDialogButton = ButtonMatch{Contains: []string{"确认", "确定"}}

	SendCodeButton = ButtonMatch{
		Exact:    []string{"验证"},
		Contains: []string{"发送", "获取验证码"},
	}

	SubmitCodeButton = ButtonMatch{
		Exact:    []string{"验证"},
		Contains: []string{"确认", "确定", "提交"},
	}
)

// VerificationKeywords in the page text mean the portal wants an SMS code.
var VerificationKeywords = []string{"短信验证", "验证码", "手机验证"}
