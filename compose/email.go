package compose

// Format is the markup of a generated email body.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// Email is a finished email body. It lives only as long as the request that
// produced it and whatever edits the operator makes before downloading.
type Email struct {
	Body   string
	Format Format
}

// Filename is the download name for the email.
func (e Email) Filename() string {
	return FilenameFor(e.Format)
}

// ContentType is the MIME type of the email body.
func (e Email) ContentType() string {
	if e.Format == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// FilenameFor returns "email.html" for HTML and "email.txt" otherwise.
func FilenameFor(f Format) string {
	if f == FormatHTML {
		return "email.html"
	}
	return "email.txt"
}
