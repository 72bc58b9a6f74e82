// Package monitor implements the live camera dashboard behind `ipcam-cfg watch`.
//
// The dashboard is a Bubble Tea program. It polls the camera on a timer,
// shows current settings next to the latest sensor readings, and binds
// single keys to the camera's switches:
//
//	t torch   f focus   r record   n night vision   o overlay   m motion detect
//	+/- zoom  ? help    q quit
//
// Errors are shown in the status line and polling carries on, so the
// dashboard recovers on its own when the phone comes back.
//
//	if err := monitor.Run(ctx, client, "door", 2*time.Second); err != nil {
//	    return err
//	}
package monitor
