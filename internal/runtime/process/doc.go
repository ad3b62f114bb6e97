// Package process launches dev servers as local child processes.
//
// Each service runs through the platform shell (sh -c on unix, cmd /C on
// Windows) in its own directory with stdin inherited. Output is captured
// through pipes that the runtime creates itself, so draining continues until
// every writer (including grandchildren) has closed its end, independently of
// when the shell is reaped.
//
// Termination signals reach the direct child only. On Linux the child is
// additionally killed when groo dies (Pdeathsig). Grandchildren that outlive
// the shell are located later by port.
package process
