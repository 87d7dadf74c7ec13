// Package render encodes compositions with ffmpeg.
//
// An EncoderProbe picks a hardware H.264 encoder once per process (falling
// back to libx264), Params maps a quality tier and encoder to codec arguments,
// and Pipeline runs the single blocking ffmpeg invocation. Encode failures are
// wrapped as services.ErrExternalTool and abort the render.
package render
