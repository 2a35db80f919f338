package cripta

type IKeySchedule interface {
	GenerateRoundKeys(masterKey []uint8) ([][]uint8, error)
}

type IRoundFunction interface {
	Apply(round int, halfBlock Bits) (Bits, error)
}

type ISymmetricCipher interface {
	Encrypt(message string) (string, error)
	Decrypt(message string) (string, error)
	EncryptBlock(plainBlock []uint8) ([]uint8, error)
	DecryptBlock(cipherBlock []uint8) ([]uint8, error)
}
