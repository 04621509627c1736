package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher はパスワードの一方向ハッシュ化と照合を提供します。
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher はハッシャーを作成します。cost が範囲外のときは既定値を使います。
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash は平文からソルト付きダイジェストを生成します。空文字列も受け付けます。
func (h *PasswordHasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify は平文がダイジェストに一致するかを報告します。
// ダイジェストが壊れている場合もエラーにはせず false を返します。
func (h *PasswordHasher) Verify(digest, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
