package pipeline

// Package pipeline turns a fetched file into the job's final artifact:
// an optional trim, then either a container conversion or an H.264
// compression pass. Intermediate files are owned by the pipeline and
// deleted as soon as the next stage has produced its output.
