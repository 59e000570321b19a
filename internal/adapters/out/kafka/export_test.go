package kafka

// NewStatusChangePublisherWithWriter exposes the writer seam to tests.
var NewStatusChangePublisherWithWriter = newStatusChangePublisher

type MessageWriter = messageWriter
