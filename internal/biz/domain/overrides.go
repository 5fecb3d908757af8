package domain

// Overrides holds session-lifetime values that shadow static configuration.
// Absence of a value means "fall back to the static default". Mutated only by
// explicit export commands, never by inbound events; owned by the dispatch
// loop's single thread of control.
type Overrides struct {
	recipient *string
	channelID *uint64
}

// SetRecipient sets the session default PGP recipient (fingerprint or uid)
func (o *Overrides) SetRecipient(value string) {
	o.recipient = &value
}

// UnsetRecipient clears the session recipient
func (o *Overrides) UnsetRecipient() {
	o.recipient = nil
}

// SetChannel overrides the channel used for listening and sending
func (o *Overrides) SetChannel(id uint64) {
	o.channelID = &id
}

// UnsetChannel reverts to the static default channel
func (o *Overrides) UnsetChannel() {
	o.channelID = nil
}

// EffectiveChannel returns the session channel, or staticDefault when unset
func (o *Overrides) EffectiveChannel(staticDefault uint64) uint64 {
	if o.channelID != nil {
		return *o.channelID
	}
	return staticDefault
}

// EffectiveRecipient returns the session recipient, if one is set
func (o *Overrides) EffectiveRecipient() (string, bool) {
	if o.recipient != nil {
		return *o.recipient, true
	}
	return "", false
}
