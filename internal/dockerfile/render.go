package dockerfile

import (
	"fmt"
	"strings"

	"github.com/m-okabe/cxxmatrix/internal/model"
)

// cmakeVersion is baked into every image via the CMAKE_VERSION build arg.
const cmakeVersion = "3.24.2"

// prologue follows the FROM line: build args and the strict bash shell
// used for all subsequent RUN instructions.
const prologue = `

ARG DEBIAN_FRONTEND=noninteractive
ARG CMAKE_VERSION=` + cmakeVersion + `

SHELL ["/bin/bash", "-Eeox", "pipefail", "-c"]
`

// installBase is the package block shared by every image: apt
// bootstrap, the toolchain PPA, generic build tools, a pinned CMake
// from the upstream release archive, and conan.
const installBase = `
# Common package setup
RUN set -xe; \
    # Install packages to allow us to install other packages
    apt update; \
    apt install -y --no-install-recommends \
        apt-transport-https ca-certificates gnupg software-properties-common wget; \
    apt-add-repository -y -n 'ppa:ubuntu-toolchain-r/test'; \
    apt update; \
    # Install generic build tools & python
    apt install -y --no-install-recommends \
        pkg-config make \
        python3 python3-pip python3-setuptools \
        ; \
    # Install CMake
    wget -O /tmp/cmake.sh \
        https://github.com/Kitware/CMake/releases/download/v${CMAKE_VERSION}/cmake-${CMAKE_VERSION}-linux-$(uname -m).sh; \
    sh /tmp/cmake.sh --skip-license --exclude-subdir --prefix=/usr/local; \
    # Cleanup apt packages
    rm -rf /tmp/* /var/tmp/* /var/cache/apt/* /var/lib/apt/lists/*; \
    # Install conan
    python3 -m pip install conan
`

// epilogue installs the image entrypoint and restores a plain shell.
const epilogue = `
# The entry point
COPY entrypoint.py /usr/local/bin/entrypoint.py
ENTRYPOINT ["/usr/local/bin/entrypoint.py"]
SHELL ["/bin/bash", "-c"]
`

// deferredClangVersionExpr resolves the clang major version at image
// build time, once the llvm repository index is available. Used for the
// dev snapshot and for pinned versions new enough to live only on
// apt.llvm.org.
const deferredClangVersionExpr = `$(apt policy llvm 2>/dev/null | grep -E 'Candidate: 1:(.*).*$' - | cut -d':' -f3 | cut -d'.' -f1)`

// Render produces the complete build definition for one target.
// Returns a CLIError with ExitConfigError when the target requests no
// compiler family at all.
func Render(t model.Target) (string, error) {
	compilerBlock, err := renderCompilerBlock(t)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("FROM " + t.BaseImage())
	b.WriteString(prologue)
	b.WriteString(installBase)
	b.WriteString(compilerBlock)
	b.WriteString(epilogue)
	return b.String(), nil
}

// renderCompilerBlock assembles the target-specific RUN instruction:
// repository setup, package installation, apt cache cleanup, and
// alternatives registration.
func renderCompilerBlock(t model.Target) (string, error) {
	if !t.HasClang() && !t.HasGCC() {
		return "", model.NewCLIError(model.ExitConfigError,
			fmt.Sprintf("target %s requests neither clang nor gcc", t.ServiceName()))
	}

	var alts []model.Alternative
	preInstall := "apt -y update;"
	packages := ""

	if t.HasClang() {
		versionExpr := t.ClangVersion
		var repoLines []string

		if t.ClangNeedsSnapshotRepo() {
			// The dev snapshot tracks the unsuffixed toolchain repo; a
			// pinned version gets its own suffixed repo.
			repoSuffix := ""
			if t.ClangVersion != model.ClangDevVersion {
				repoSuffix = "-" + t.ClangVersion
			}
			versionExpr = deferredClangVersionExpr
			repoLines = []string{
				"wget -qO - https://apt.llvm.org/llvm-snapshot.gpg.key | apt-key add -",
				fmt.Sprintf(`apt-add-repository -y -n "deb http://apt.llvm.org/$(lsb_release -cs)/ llvm-toolchain-$(lsb_release -cs)%s main"`, repoSuffix),
			}
		}

		preInstall = ""
		if len(repoLines) > 0 {
			preInstall = strings.Join(repoLines, "; \\\n    ") + "; \\\n    "
		}
		preInstall += fmt.Sprintf(`apt update; \
    v="%s"; \
    apt policy llvm-$v; \
    apt policy clang-$v; \
    apt policy clang-tidy-$v; \
    apt policy clang-format-$v; \
    apt policy libc++-$v-dev; \
    apt policy libc++abi-$v-dev; \
`, versionExpr)

		packages = `\
        llvm-$v \
        clang-$v \
        clang-tidy-$v \
        clang-format-$v \
        libc++-$v-dev \
        libc++abi-$v-dev`

		alts = []model.Alternative{
			{Alias: "clang", Path: "/usr/bin/clang-$v"},
			{Alias: "clang++", Path: "/usr/bin/clang++-$v"},
			{Alias: "clang-tidy", Path: "/usr/bin/clang-tidy-$v"},
			{Alias: "clang-format", Path: "/usr/bin/clang-format-$v"},
			{Alias: "llvm-cov", Path: "/usr/lib/llvm-$v/bin/llvm-cov"},
			{Alias: "run-clang-tidy", Path: "/usr/lib/llvm-$v/bin/run-clang-tidy"},
		}

		// Without gcc in the image the generic names point at clang, so
		// builds that hardcode gcc/g++ still work.
		if !t.HasGCC() {
			alts = append(alts,
				model.Alternative{Alias: "gcc", Path: "/usr/bin/clang-$v"},
				model.Alternative{Alias: "g++", Path: "/usr/bin/clang++-$v"},
				model.Alternative{Alias: "gcov", Path: "/usr/lib/llvm-$v/bin/llvm-cov"},
			)
		}
	}

	if t.HasGCC() {
		packages += fmt.Sprintf(" g++-%d", t.GCCVersion)
		// Always registered after the clang aliases: later registration
		// wins the generic names, so gcc owns gcc/g++/gcov when both
		// families are present.
		alts = append(alts,
			model.Alternative{Alias: "gcc", Path: fmt.Sprintf("/usr/bin/gcc-%d", t.GCCVersion)},
			model.Alternative{Alias: "g++", Path: fmt.Sprintf("/usr/bin/g++-%d", t.GCCVersion)},
			model.Alternative{Alias: "gcov", Path: fmt.Sprintf("/usr/bin/gcov-%d", t.GCCVersion)},
		)
	}

	if t.ExtraPackages != "" {
		packages += " " + t.ExtraPackages
	}

	return fmt.Sprintf(`
# Compilers and tools
RUN set -xe; \
    %s \
    apt install -y --no-install-recommends \
        %s \
    ; \
    rm -rf /var/lib/apt/lists/*; \
    %s
`, preInstall, packages, renderAlternatives(alts)), nil
}

// renderAlternatives emits a single update-alternatives command: the
// first pair is the primary --install rule, every further pair attaches
// as a --slave binding under the same group.
func renderAlternatives(alts []model.Alternative) string {
	var b strings.Builder
	for i, alt := range alts {
		rule := fmt.Sprintf("/usr/bin/%s %s %s", alt.Alias, alt.Alias, alt.Path)
		if i == 0 {
			b.WriteString(fmt.Sprintf("update-alternatives --install %s 100 ", rule))
		} else {
			b.WriteString(fmt.Sprintf(" \\\n        --slave %s", rule))
		}
	}
	return b.String()
}
