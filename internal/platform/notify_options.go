package platform

import "time"

// AppName identifies the application to the notification service.
const AppName = "imageclipper"

// DefaultTimeout is how long a notification stays up when Options does not
// say otherwise.
const DefaultTimeout = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Urgent marks failures. Platforms that support it raise the priority.
	Urgent bool
	Timeout time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
