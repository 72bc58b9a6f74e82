// Package ipcam provides an HTTP client for the IP Webcam Android app.
//
// The app turns a phone into a network camera that serves JSON status and
// sensor data, MJPEG/RTSP streams and a set of control endpoints. Client
// wraps those endpoints: it builds stream URLs, refreshes status and sensor
// snapshots, exposes typed views over them, and changes camera settings.
//
// # Usage Example
//
//	client := ipcam.NewClient(http.DefaultClient, "192.168.1.20", 8080)
//	client.SetSSL(false)
//	client.SetAuth("user", "secret")
//
//	if err := client.Update(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	battery, ok := client.SensorValue("battery_level")
//	fmt.Println(battery, ok)
//
//	if _, err := client.Torch(ctx, true); err != nil {
//	    log.Fatal(err)
//	}
//
// # Values
//
// The camera sends every setting as a string. CurrentSettings and
// AvailableSettings coerce them into Value: "on"/"off" become booleans,
// numeric strings become numbers, and everything else stays text.
//
// # Errors
//
// Every operation that talks to the camera returns a *DeviceError on failure.
// Use IsUnauthorized, IsCannotConnect and friends, or errors.Is with
// ErrUnauthorized, ErrCannotConnect, ErrHTTP, ErrParse and ErrValidation.
// Requests are never retried. Available reports whether the last request
// reached the camera, for callers that prefer polling.
//
// # Concurrency
//
// Snapshots are replaced as a whole under a lock, so reads never observe a
// partially updated snapshot. The client does not serialize requests itself.
package ipcam
