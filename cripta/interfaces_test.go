package cripta

var (
	_ IKeySchedule     = (*DESKeySchedule)(nil)
	_ IRoundFunction   = (*DESRoundFunction)(nil)
	_ ISymmetricCipher = (*DESCipher)(nil)
)
