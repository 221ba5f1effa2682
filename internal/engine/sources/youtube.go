package sources

// YouTube implementation is split across two files by responsibility:
//   youtube_innertube.go  — Innertube API types, constants, and low-level HTTP primitives
//   youtube_transcript.go — YouTubeClient: caption catalog (watch page + ANDROID player
//                           fallback), track selection handoff, and timedtext parsing
