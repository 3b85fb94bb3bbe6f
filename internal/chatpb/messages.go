// Package chatpb defines the wire messages and gRPC service surfaces of the
// chat cluster: the client-facing service, the peer election service and the
// state-sync service. Messages are hand-written protobuf structs registered
// with hand-written service descriptors.
package chatpb

import "fmt"

// Control-message content prefixes. A subscription stream's first message
// carries one of these: a redirect to the leader's address or the client's
// assigned id.
const (
	RedirectPrefix   = "REDIRECT:"
	AssignedIDPrefix = "ID Atribuido:"
)

// Empty is the argument of requests that carry no payload.
type Empty struct{}

// Reset implements proto.Message.
func (m *Empty) Reset() { *m = Empty{} }

// String implements proto.Message.
func (m *Empty) String() string { return "Empty{}" }

// ProtoMessage marks the struct as compatible with protobuf encoding.
func (*Empty) ProtoMessage() {}

// TextMessage is the chat envelope. Control messages reuse it with the
// reserved content prefixes "REDIRECT:" and "ID Atribuido:".
type TextMessage struct {
	ClientIdFrom     uint32 `protobuf:"varint,1,opt,name=client_id_from,json=clientIdFrom,proto3" json:"client_id_from,omitempty"`
	Content          string `protobuf:"bytes,2,opt,name=content,proto3" json:"content,omitempty"`
	LamportTimestamp uint64 `protobuf:"varint,3,opt,name=lamport_timestamp,json=lamportTimestamp,proto3" json:"lamport_timestamp,omitempty"`
}

// Reset implements proto.Message.
func (m *TextMessage) Reset() { *m = TextMessage{} }

// String implements proto.Message.
func (m *TextMessage) String() string {
	return fmt.Sprintf("TextMessage{From:%d, Content:%q, Ts:%d}", m.ClientIdFrom, m.Content, m.LamportTimestamp)
}

// ProtoMessage marks the struct as compatible with protobuf encoding.
func (*TextMessage) ProtoMessage() {}

// LeaderInfo answers GetLeader.
type LeaderInfo struct {
	LeaderId      uint32 `protobuf:"varint,1,opt,name=leader_id,json=leaderId,proto3" json:"leader_id,omitempty"`
	LeaderAddress string `protobuf:"bytes,2,opt,name=leader_address,json=leaderAddress,proto3" json:"leader_address,omitempty"`
	IsLeaderKnown bool   `protobuf:"varint,3,opt,name=is_leader_known,json=isLeaderKnown,proto3" json:"is_leader_known,omitempty"`
}

// Reset implements proto.Message.
func (m *LeaderInfo) Reset() { *m = LeaderInfo{} }

// String implements proto.Message.
func (m *LeaderInfo) String() string {
	return fmt.Sprintf("LeaderInfo{Leader:%d, Addr:%s, Known:%v}", m.LeaderId, m.LeaderAddress, m.IsLeaderKnown)
}

// ProtoMessage marks the struct as compatible with protobuf encoding.
func (*LeaderInfo) ProtoMessage() {}

// StatusResponse acknowledges SendMessageToServer.
type StatusResponse struct {
	Success  bool   `protobuf:"varint,1,opt,name=success,proto3" json:"success,omitempty"`
	ClientId uint32 `protobuf:"varint,2,opt,name=client_id,json=clientId,proto3" json:"client_id,omitempty"`
	Message  string `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

// Reset implements proto.Message.
func (m *StatusResponse) Reset() { *m = StatusResponse{} }

// String implements proto.Message.
func (m *StatusResponse) String() string {
	return fmt.Sprintf("StatusResponse{Success:%v, Client:%d, Msg:%q}", m.Success, m.ClientId, m.Message)
}

// ProtoMessage marks the struct as compatible with protobuf encoding.
func (*StatusResponse) ProtoMessage() {}

// ElectionRequest is a bully ELECTION challenge to a higher-id peer.
type ElectionRequest struct {
	CandidateId      uint32 `protobuf:"varint,1,opt,name=candidate_id,json=candidateId,proto3" json:"candidate_id,omitempty"`
	LamportTimestamp uint64 `protobuf:"varint,2,opt,name=lamport_timestamp,json=lamportTimestamp,proto3" json:"lamport_timestamp,omitempty"`
}

// Reset implements proto.Message.
func (m *ElectionRequest) Reset() { *m = ElectionRequest{} }

// String implements proto.Message.
func (m *ElectionRequest) String() string {
	return fmt.Sprintf("ElectionRequest{Candidate:%d, Ts:%d}", m.CandidateId, m.LamportTimestamp)
}

// ProtoMessage marks the struct as compatible with protobuf encoding.
func (*ElectionRequest) ProtoMessage() {}

// ElectionResponse carries the OK verdict of a challenged peer.
type ElectionResponse struct {
	Ok               bool   `protobuf:"varint,1,opt,name=ok,proto3" json:"ok,omitempty"`
	ResponderId      uint32 `protobuf:"varint,2,opt,name=responder_id,json=responderId,proto3" json:"responder_id,omitempty"`
	LamportTimestamp uint64 `protobuf:"varint,3,opt,name=lamport_timestamp,json=lamportTimestamp,proto3" json:"lamport_timestamp,omitempty"`
}

// Reset implements proto.Message.
func (m *ElectionResponse) Reset() { *m = ElectionResponse{} }

// String implements proto.Message.
func (m *ElectionResponse) String() string {
	return fmt.Sprintf("ElectionResponse{Ok:%v, Responder:%d, Ts:%d}", m.Ok, m.ResponderId, m.LamportTimestamp)
}

// ProtoMessage marks the struct as compatible with protobuf encoding.
func (*ElectionResponse) ProtoMessage() {}

// CoordinatorRequest announces the new leader.
type CoordinatorRequest struct {
	LeaderId         uint32 `protobuf:"varint,1,opt,name=leader_id,json=leaderId,proto3" json:"leader_id,omitempty"`
	LamportTimestamp uint64 `protobuf:"varint,2,opt,name=lamport_timestamp,json=lamportTimestamp,proto3" json:"lamport_timestamp,omitempty"`
}

// Reset implements proto.Message.
func (m *CoordinatorRequest) Reset() { *m = CoordinatorRequest{} }

// String implements proto.Message.
func (m *CoordinatorRequest) String() string {
	return fmt.Sprintf("CoordinatorRequest{Leader:%d, Ts:%d}", m.LeaderId, m.LamportTimestamp)
}

// ProtoMessage marks the struct as compatible with protobuf encoding.
func (*CoordinatorRequest) ProtoMessage() {}

// CoordinatorResponse acknowledges a leader announcement.
type CoordinatorResponse struct {
	Acknowledged     bool   `protobuf:"varint,1,opt,name=acknowledged,proto3" json:"acknowledged,omitempty"`
	LamportTimestamp uint64 `protobuf:"varint,2,opt,name=lamport_timestamp,json=lamportTimestamp,proto3" json:"lamport_timestamp,omitempty"`
}

// Reset implements proto.Message.
func (m *CoordinatorResponse) Reset() { *m = CoordinatorResponse{} }

// String implements proto.Message.
func (m *CoordinatorResponse) String() string {
	return fmt.Sprintf("CoordinatorResponse{Ack:%v, Ts:%d}", m.Acknowledged, m.LamportTimestamp)
}

// ProtoMessage marks the struct as compatible with protobuf encoding.
func (*CoordinatorResponse) ProtoMessage() {}

// HeartbeatRequest is a liveness probe from a backup to the leader. The
// timestamp is always zero: heartbeats are not logical events.
type HeartbeatRequest struct {
	ServerId         uint32 `protobuf:"varint,1,opt,name=server_id,json=serverId,proto3" json:"server_id,omitempty"`
	LamportTimestamp uint64 `protobuf:"varint,2,opt,name=lamport_timestamp,json=lamportTimestamp,proto3" json:"lamport_timestamp,omitempty"`
}

// Reset implements proto.Message.
func (m *HeartbeatRequest) Reset() { *m = HeartbeatRequest{} }

// String implements proto.Message.
func (m *HeartbeatRequest) String() string {
	return fmt.Sprintf("HeartbeatRequest{Server:%d}", m.ServerId)
}

// ProtoMessage marks the struct as compatible with protobuf encoding.
func (*HeartbeatRequest) ProtoMessage() {}

// HeartbeatResponse reports liveness plus the responder's view of the leader.
type HeartbeatResponse struct {
	Alive            bool   `protobuf:"varint,1,opt,name=alive,proto3" json:"alive,omitempty"`
	LeaderId         uint32 `protobuf:"varint,2,opt,name=leader_id,json=leaderId,proto3" json:"leader_id,omitempty"`
	LamportTimestamp uint64 `protobuf:"varint,3,opt,name=lamport_timestamp,json=lamportTimestamp,proto3" json:"lamport_timestamp,omitempty"`
}

// Reset implements proto.Message.
func (m *HeartbeatResponse) Reset() { *m = HeartbeatResponse{} }

// String implements proto.Message.
func (m *HeartbeatResponse) String() string {
	return fmt.Sprintf("HeartbeatResponse{Alive:%v, Leader:%d}", m.Alive, m.LeaderId)
}

// ProtoMessage marks the struct as compatible with protobuf encoding.
func (*HeartbeatResponse) ProtoMessage() {}

// SyncRequest asks a peer for history newer than LastTimestamp.
type SyncRequest struct {
	LastTimestamp uint64 `protobuf:"varint,1,opt,name=last_timestamp,json=lastTimestamp,proto3" json:"last_timestamp,omitempty"`
}

// Reset implements proto.Message.
func (m *SyncRequest) Reset() { *m = SyncRequest{} }

// String implements proto.Message.
func (m *SyncRequest) String() string {
	return fmt.Sprintf("SyncRequest{Last:%d}", m.LastTimestamp)
}

// ProtoMessage marks the struct as compatible with protobuf encoding.
func (*SyncRequest) ProtoMessage() {}

// SyncResponse returns the requested slice of history.
type SyncResponse struct {
	Messages         []*TextMessage `protobuf:"bytes,1,rep,name=messages,proto3" json:"messages,omitempty"`
	LamportTimestamp uint64         `protobuf:"varint,2,opt,name=lamport_timestamp,json=lamportTimestamp,proto3" json:"lamport_timestamp,omitempty"`
}

// Reset implements proto.Message.
func (m *SyncResponse) Reset() { *m = SyncResponse{} }

// String implements proto.Message.
func (m *SyncResponse) String() string {
	return fmt.Sprintf("SyncResponse{Messages:%d, Ts:%d}", len(m.Messages), m.LamportTimestamp)
}

// ProtoMessage marks the struct as compatible with protobuf encoding.
func (*SyncResponse) ProtoMessage() {}
