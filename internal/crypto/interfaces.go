package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/keychain_service_mock.go -package=mock

// KeyChainService защищает учётные данные общего доступа (shared-auth bridge).
// Он не знает ничего о сети, базе данных или пользователях.
// Его единственная задача — выводить ключ устройства и запечатывать данные.
//
// Схема работы:
//
//	Secret = GenerateDeviceSecret()          (один раз на установку)
//	Key    = DeriveSealingKey(secret, salt)  (Argon2id)
//	Blob   = Seal(credential, Key)           (AES-256-GCM)
type KeyChainService interface {
	// GenerateDeviceSecret генерирует случайный секрет установки
	// (32 байта / 256 бит). Хранится только в app-group каталоге с правами
	// 0600 и не попадает в резервные копии.
	GenerateDeviceSecret() ([]byte, error)

	// GenerateSealingSalt генерирует случайную соль (16 байт / 128 бит).
	// Соль не является секретом — она хранится рядом с запечатанным блобом.
	GenerateSealingSalt() ([]byte, error)

	// DeriveSealingKey выводит ключ шифрования из секрета устройства и соли
	// через Argon2id. Ключ существует только в памяти процесса.
	DeriveSealingKey(deviceSecret, salt []byte) []byte

	// Seal serializes the given value to JSON and encrypts it with the
	// sealing key via AES-256-GCM. Returns a base64-encoded blob
	// (nonce || ciphertext) safe to store in the shared app-group store.
	Seal(data any, key []byte) (string, error)

	// Open decrypts a base64-encoded blob with the sealing key and
	// unmarshals the result into the target pointer (same as
	// json.Unmarshal). Returns an error if authentication fails (e.g., the
	// blob was written by a different install).
	Open(sealedB64 string, key []byte, target any) error
}
