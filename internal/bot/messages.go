package bot

const (
	MsgSendMediaHint       = "Send a photo, video or audio clip of your bulldog and I'll interpret the behavior. Add a caption if you want to give me extra context."
	MsgAnalysisInProgress  = "One analysis at a time! Wait for the current one to finish."
	MsgAnalysisFailed      = "Couldn't analyze that, try again in a moment."
	MsgUnsupportedMedia    = "I can only work with photos, videos and audio clips."
	MsgCameraNotConfigured = "No camera is configured. Set CAMERA_SNAPSHOT_URL to enable live capture."
	MsgCameraUnavailable   = "Couldn't reach the camera. Check that it's on and accessible, then try /camera again."
	MsgHistoryCleared      = "History cleared."
	MsgHistoryEmpty        = "No analyses yet. Send a photo of your bulldog to get started."
	MsgHistoryHeader       = "*Recent analyses*\n\n"
	MsgVersionInfo         = "Version: %s"

	// MsgDisclaimer is appended to every analysis result.
	MsgDisclaimer = "_This is AI-generated guidance, not veterinary advice. If you're worried about your dog's health, talk to a vet._"
)

const msgStartHelp = `
	Hi! I read bulldog body language. 🐶

	Send me a photo, video or audio clip of your bulldog and I'll tell you:
	- what the behavior is
	- what your dog is likely trying to say
	- one thing you can do about it

	A caption on the media gives me extra context ("she's been doing this since the walk").

	Commands:
	/camera - analyze a live frame from your configured camera
	/history - your last 10 analyses
	/clear - forget your history
`
