package autoclicker

// Version is the semantic version of this build. The update pipeline
// compares it against the latest published release tag.
const Version = "1.4.0"
